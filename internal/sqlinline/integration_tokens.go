package sqlinline

const QSelectIntegrationToken = `--sql c9aa1caa-167d-492f-8388-22ac42716f94
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql 9ec2db38-bff0-4e68-bbf6-68b5263e9c83
insert into integration_tokens (provider, token, properties)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
